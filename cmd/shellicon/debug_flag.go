package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/justyntemme/shellicon/internal/debug"
)

// debugSelection is a parsed --debug value: "all", "none", or a comma list
// such as "ICON,CACHE" or "all,-FS_ENTRY".
type debugSelection struct {
	all     bool
	none    bool
	enable  []debug.Category
	disable []debug.Category
}

func parseDebugFlag(value string) debugSelection {
	var sel debugSelection
	for _, part := range strings.Split(value, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		switch {
		case part == "":
		case part == "ALL":
			sel.all = true
		case part == "NONE":
			sel.none = true
		case strings.HasPrefix(part, "-"):
			sel.disable = append(sel.disable, debug.Category(part[1:]))
		default:
			sel.enable = append(sel.enable, debug.Category(strings.TrimPrefix(part, "+")))
		}
	}
	return sel
}

// applyDebugFlag overrides the SHELLICON_DEBUG selection. Naming categories
// without "all" turns every other category off.
func applyDebugFlag(value string, stderr io.Writer) {
	if value == "" {
		return
	}
	if !debug.Enabled {
		fmt.Fprintln(stderr, "warning: --debug has no effect; rebuild with -tags debug")
		return
	}

	sel := parseDebugFlag(value)
	switch {
	case sel.all:
		debug.EnableAll()
	case sel.none || len(sel.enable) > 0:
		debug.DisableAll()
	}
	for _, cat := range sel.enable {
		debug.Enable(cat)
	}
	for _, cat := range sel.disable {
		debug.Disable(cat)
	}
	debug.Log(debug.CLI, "debug categories: %v", debug.ListEnabled())
}
