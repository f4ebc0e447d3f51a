// Package cfgx decodes resolved option values into caller-owned structs.
//
// Build clones the input map, merges overlay maps on top of it, decodes the
// result with mapstructure and finally runs the validator, if any. Fields are
// matched by their koanf tag unless WithTagName says otherwise.
//
// Failures are reported as *StageError and match ErrMerge, ErrDecode,
// ErrValidate or ErrOption with errors.Is.
//
// Default hooks turn strings into time.Duration (Go syntax or bare seconds),
// split comma separated strings into slices and honour encoding.TextUnmarshaler.
package cfgx
