package orchestration

import (
	"fmt"
	"strings"

	"github.com/alantheprice/idekit/pkg/utils"
)

// Kind selects the IDE to bootstrap.
type Kind string

const (
	KindEclipse      Kind = "eclipse"
	KindVisualStudio Kind = "visualstudio"
	KindVSCode       Kind = "vscode"
)

// Kinds lists every supported IDE kind in display order.
var Kinds = []Kind{KindEclipse, KindVisualStudio, KindVSCode}

var displayNames = map[Kind]string{
	KindEclipse:      "eclipse",
	KindVisualStudio: "visual studio",
	KindVSCode:       "VS code",
}

// DisplayName returns the human readable IDE name.
func (k Kind) DisplayName() string {
	if name, ok := displayNames[k]; ok {
		return utils.CapitalizeWords(name)
	}
	return string(k)
}

// ParseKind validates an IDE kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return "", fmt.Errorf("unknown IDE %q (choose from %s)", s, strings.Join(names, ", "))
}

// Request is one invocation of the ide command. It is immutable once built.
type Request struct {
	kind            Kind
	passthroughArgs []string
}

// NewRequest builds a request. args are copied and carried unexamined.
func NewRequest(kind Kind, args []string) Request {
	return Request{kind: kind, passthroughArgs: append([]string(nil), args...)}
}

func (r Request) Kind() Kind { return r.kind }

// PassthroughArgs returns a copy of the trailing arguments.
func (r Request) PassthroughArgs() []string {
	return append([]string(nil), r.passthroughArgs...)
}
