package toolset

import "github.com/spetersoncode/thinkact/tool"

// Default returns the tool set of the command-line agent rooted at workdir:
// the file tools, HTTP fetch, the clock and the terminate tool.
func Default(workdir string, web ...WebOption) []tool.Registration {
	regs := Files(WithRoot(workdir))
	regs = append(regs, Fetch(web...), Clock(), tool.Terminate())
	return regs
}
