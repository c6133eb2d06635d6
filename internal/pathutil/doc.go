// Package pathutil validates user-supplied output paths before files are
// written by the CLI and the MCP server.
//
//	safe, err := pathutil.SanitizeOutputPath(userProvidedPath)
//	if err != nil {
//	    return err // symlink, directory or missing parent
//	}
package pathutil
