// Package authconfig resolves configuration for authentication middleware
// from two layers: string overrides handed over by a deployment pipeline, and
// a typed store.
//
// Overrides are converted to each option's declared type once, when the
// Config is built, and always win over the store:
//
//	schema := opt.Schema{
//		{Name: "auth", Opts: []opt.Opt{
//			{Name: "foo", Type: opt.Integer, Deprecated: []opt.DeprecatedOpt{{Name: "old_foo"}}},
//		}},
//	}
//	cfg, err := authconfig.New(ctx, "auth", schema,
//		authconfig.Overrides{authconfig.String("old_foo", "42")},
//		authconfig.Default{})
//	v, _ := cfg.Get("foo") // 42
//
// The store behind a Config is picked once: an External store supplied by the
// caller, a ProjectBacked store loaded for a project, or the process-wide
// store.Global.
package authconfig
