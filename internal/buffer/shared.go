package buffer

// shared is the one Channel whose address is handed to foreign callers.
// It lives for the whole process and is zeroed at start.
var shared Channel

// Shared returns the process-wide Channel. Only the foreign-call seam should
// use it; in-process code passes values or allocates its own with New.
func Shared() *Channel { return &shared }
