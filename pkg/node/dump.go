package node

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes the tree under root, one node per line indented by depth:
//
//	role: Kind name="x" token="y" op=+ <type> @line:col
func Dump(writer io.Writer, root *Node) error {
	if root == nil {
		return nil
	}

	var err error

	Walk(root, func(path Path) bool {
		if err != nil {
			return false
		}

		_, err = fmt.Fprintln(writer, strings.Repeat("  ", path.Len()-1)+describe(path.Leaf()))

		return err == nil
	})

	return err
}

func describe(target *Node) string {
	var sb strings.Builder

	if target.Role != RoleNone {
		sb.WriteString(target.Role.String())
		sb.WriteString(": ")
	}

	sb.WriteString(target.Kind.String())

	if target.Name != "" {
		fmt.Fprintf(&sb, " name=%q", target.Name)
	}

	if target.Token != "" && target.Token != target.Name {
		fmt.Fprintf(&sb, " token=%q", target.Token)
	}

	if target.Op != OpNone {
		fmt.Fprintf(&sb, " op=%s", target.Op)
	}

	if target.Type != nil {
		fmt.Fprintf(&sb, " <%s>", target.Type)
	}

	if target.Span.Line > 0 {
		fmt.Fprintf(&sb, " @%d:%d", target.Span.Line, target.Span.Col)
	}

	return sb.String()
}
