// Package devtools detects the installed Apple developer tools version by
// probing system_profiler.
//
// The probe runs once and either yields a Version or an *Error whose Kind
// tells the caller what to do next:
//
//	KindCommandFailed       system_profiler could not run or exited non-zero
//	KindToolsMissing        it ran but reported nothing (install Xcode)
//	KindOutputUnrecognized  its output no longer matches (report a bug)
//	KindMajorVersionInvalid the captured major version is not a number
//	KindMinorVersionInvalid the captured minor version is not a number
package devtools
