package formula

import (
	"sort"
	"strings"

	"github.com/xuri/efp"
)

// References extracts the deduplicated, sorted set of "Sheet!REF" cell
// keys a formula reads. Bare references resolve against currentSheet;
// range references contribute both corner cells. Defined names and
// boolean literals are not cell dependencies.
func References(src, currentSheet string) []string {
	body := strings.TrimPrefix(strings.TrimSpace(src), "=")
	if body == "" {
		return nil
	}

	ps := efp.ExcelParser()
	seen := make(map[string]struct{})
	for _, t := range ps.Parse(body) {
		if t.TType != efp.TokenTypeOperand || t.TSubType != efp.TokenSubTypeRange {
			continue
		}
		sheet := currentSheet
		rest := t.TValue
		if i := strings.LastIndex(rest, "!"); i >= 0 {
			sheet = strings.Trim(rest[:i], "'")
			rest = rest[i+1:]
		}
		rest = strings.ToUpper(strings.ReplaceAll(rest, "$", ""))
		for _, ref := range strings.Split(rest, ":") {
			if cellRefPattern.MatchString(ref) {
				seen[sheet+"!"+ref] = struct{}{}
			}
		}
	}

	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
