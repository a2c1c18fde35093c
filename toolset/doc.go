// Package toolset provides the general-purpose tools of the command-line
// agent: sandboxed file access, HTTP fetch and a clock.
//
// Every constructor returns [tool.Registration] values ready for
// [tool.Registry.Add]. Failures are returned as handler errors, which the
// registry reports to the model as error results.
package toolset
