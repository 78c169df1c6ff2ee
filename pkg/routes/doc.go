// Package routes discovers handler files by filesystem convention and builds the
// immutable method+path table the engine dispatches against.
//
// Convention: <root>/<seg>/.../<method>.<ext> serves METHOD /seg/...; a file in
// the root itself serves "/". Each file is compiled into one shared script
// context and must leave a callable global (default "handler") to register.
package routes
