package ast

// Matches reports whether pattern accepts the integer v. SwitchElse
// accepts every value.
func Matches(pattern SwitchMatchTarget, v int64) bool {
	switch m := pattern.(type) {
	case *Integer:
		return m.N == v
	case *SwitchRange:
		return m.Start <= v && v <= m.End
	case *SwitchList:
		for _, e := range m.Elems {
			if e.N == v {
				return true
			}
		}
	case *SwitchElse:
		return true
	}
	return false
}

// SelectBranch returns the branch a switch over the integer v takes.
// Branches are tried in declaration order; an else branch is used only
// when no other branch matches.
func SelectBranch(sw *SwitchExpr, v int64) (*SwitchBranch, bool) {
	var fallback *SwitchBranch
	for _, b := range sw.Branches {
		if _, isElse := b.Match.(*SwitchElse); isElse {
			if fallback == nil {
				fallback = b
			}
			continue
		}
		if Matches(b.Match, v) {
			return b, true
		}
	}
	return fallback, fallback != nil
}

// HasElse reports whether the switch has a catch-all branch
func HasElse(sw *SwitchExpr) bool {
	for _, b := range sw.Branches {
		if _, ok := b.Match.(*SwitchElse); ok {
			return true
		}
	}
	return false
}
