package token

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// PathKind restricts a Path token class to files, directories, or either.
type PathKind string

const (
	PathAny       PathKind = "path"
	PathFile      PathKind = "file"
	PathDirectory PathKind = "directory"
)

// pathCandidate mirrors nessaid_cli.tokens.PathTokenPath: a single candidate
// filesystem path discovered while walking the input segment by segment,
// plus whether it still needs another segment of completion.
type pathCandidate struct {
	fsPath  string
	display string
	isDir   bool
	exists  bool
	partial bool
}

// Path matches filesystem paths, quoted with a leading and (when complete)
// trailing double quote, using the host platform's separator. Ported from
// nessaid_cli.tokens.PathToken; case-insensitivity follows the platform
// (Windows or not). Drive letters are not enumerated.
type Path struct {
	name       string
	kind       PathKind
	helpstring string
}

// NewPath constructs a Path token class restricted to kind.
func NewPath(name string, kind PathKind, helpstring string) *Path {
	if kind == "" {
		kind = PathAny
	}
	return &Path{name: name, kind: kind, helpstring: helpstring}
}

func (p *Path) Name() string { return p.name }

func (p *Path) Completable() bool { return true }

func (p *Path) CaseInsensitive() bool { return runtime.GOOS == "windows" }

func (p *Path) Cacheable() bool { return false }

func (p *Path) separator() string {
	return string(filepath.Separator)
}

func (p *Path) Helpstring(_ context.Context, _ string) (string, error) {
	if p.helpstring != "" {
		return p.helpstring, nil
	}
	return "A " + string(p.kind) + `. Start the input with quote (") and use ` + p.separator() + " as separator", nil
}

func (p *Path) children(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// lookup walks str (already stripped of its quoting) segment by segment and
// returns the classification and the candidates — the Go analogue of
// PathToken.lookup.
func (p *Path) lookup(str string) (MatchResult, []pathCandidate) {
	if str == "" {
		return Partial, nil
	}

	sep := p.separator()
	segments := strings.Split(str, sep)

	cands := []pathCandidate{{fsPath: ".", display: ""}}
	for i := range cands {
		cands[i].isDir = true
		cands[i].exists = true
	}

	for si, seg := range segments {
		last := si == len(segments)-1

		var next []pathCandidate
		for _, c := range cands {
			if !c.isDir {
				continue
			}
			base := c.display
			if base != "" && !strings.HasSuffix(base, sep) {
				base += sep
			}

			switch seg {
			case "":
				if last {
					next = append(next, c)
				}
			case ".":
				next = append(next, p.stat(c.fsPath, base+"."))
			case "..":
				parent := filepath.Dir(c.fsPath)
				next = append(next, p.stat(parent, base+".."))
			case "*":
				for _, name := range p.children(c.fsPath) {
					next = append(next, p.stat(filepath.Join(c.fsPath, name), base+name))
				}
			default:
				children := p.children(c.fsPath)
				for _, name := range children {
					match := name == seg
					if p.CaseInsensitive() {
						match = strings.EqualFold(name, seg)
					}
					if match {
						next = append(next, p.stat(filepath.Join(c.fsPath, name), base+name))
						continue
					}
					if ok, _ := filepath.Match(seg, name); ok {
						next = append(next, p.stat(filepath.Join(c.fsPath, name), base+name))
						continue
					}
					if last {
						matchesPrefix := strings.HasPrefix(name, seg)
						if p.CaseInsensitive() {
							matchesPrefix = strings.HasPrefix(strings.ToLower(name), strings.ToLower(seg))
						}
						if matchesPrefix {
							cand := p.stat(filepath.Join(c.fsPath, name), base+name)
							cand.partial = true
							next = append(next, cand)
						}
					}
				}
			}
		}
		cands = next
		if len(cands) == 0 {
			return Failure, nil
		}
	}

	cands = p.filterKind(cands)
	if len(cands) == 0 {
		return Failure, nil
	}
	if len(cands) == 1 {
		return Partial, cands
	}
	return Partial, cands
}

func (p *Path) stat(fsPath, display string) pathCandidate {
	info, err := os.Stat(fsPath)
	c := pathCandidate{fsPath: fsPath, display: display}
	if err == nil {
		c.exists = true
		c.isDir = info.IsDir()
	}
	return c
}

func (p *Path) filterKind(cands []pathCandidate) []pathCandidate {
	if p.kind == PathAny {
		return cands
	}
	out := cands[:0:0]
	for _, c := range cands {
		if p.kind == PathDirectory && c.isDir {
			out = append(out, c)
		}
		if p.kind == PathFile && !c.isDir {
			out = append(out, c)
		}
	}
	return out
}

func (p *Path) stripQuotes(input string) (unquoted string, complete bool) {
	s := input
	if strings.HasPrefix(s, `"`) {
		s = s[1:]
		if strings.HasSuffix(s, `"`) && len(s) > 0 {
			s = s[:len(s)-1]
			complete = true
		}
	}
	return s, complete
}

func (p *Path) Match(_ context.Context, input string) (MatchResult, error) {
	unquoted, complete := p.stripQuotes(input)
	m, cands := p.lookup(unquoted)
	if m == Partial && len(cands) == 1 {
		if complete {
			return Success, nil
		}
		if !cands[0].isDir {
			return Success, nil
		}
	}
	return m, nil
}

func (p *Path) Complete(_ context.Context, input string) (int, []string, error) {
	if input == "" {
		return TooManyCompletions, nil, nil
	}
	if input == `"` {
		sep := p.separator()
		opts := []string{`".`, `"..`, `"` + sep}
		for _, c := range p.children(".") {
			opts = append(opts, `"`+c)
		}
		return len(opts), opts, nil
	}

	unquoted, complete := p.stripQuotes(input)
	_, cands := p.lookup(unquoted)

	results := make([]string, 0, len(cands))
	for _, c := range cands {
		disp := `"` + c.display
		if complete || (!c.isDir && !c.partial) {
			disp += `"`
		}
		results = append(results, disp)
	}
	return len(cands), results, nil
}

func (p *Path) Value(_ context.Context, input string) (any, error) {
	unquoted, _ := p.stripQuotes(input)
	m, cands := p.lookup(unquoted)
	if m == Failure || len(cands) == 0 {
		return Null, nil
	}
	if len(cands) == 1 {
		return cands[0].display, nil
	}
	return input, nil
}
