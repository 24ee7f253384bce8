package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes an indented text form of the subtree at root, one node per
// line.
func Dump(w io.Writer, tree *Tree, root NodeID) error {
	d := dumper{w: w, tree: tree}
	d.node(root, 0)
	return d.err
}

// DumpString returns the text form of the whole tree.
func DumpString(tree *Tree) string {
	var sb strings.Builder
	_ = Dump(&sb, tree, tree.Root)
	return sb.String()
}

type dumper struct {
	w    io.Writer
	tree *Tree
	err  error
}

func (d *dumper) line(depth int, format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (d *dumper) node(id NodeID, depth int) {
	if id == NoNode {
		d.line(depth, "<null>")
		return
	}
	syms := d.tree.Symbols
	n := d.tree.Node(id)
	switch data := n.Data.(type) {
	case *Symbol:
		v := syms.Variable(data.Var)
		d.line(depth, "Symbol '%s' #%d (%s) : %s", v.Name, data.Var, v.Kind, v.Type)
	case *Constant:
		d.line(depth, "Constant %s : %s", formatConst(data.Values), n.Type)
	case *Unary:
		d.line(depth, "Unary %s : %s", data.Op, n.Type)
	case *Binary:
		d.line(depth, "Binary %s : %s", data.Op, n.Type)
	case *Ternary:
		d.line(depth, "Ternary : %s", n.Type)
	case *Swizzle:
		d.line(depth, "Swizzle %s : %s", swizzleString(data.Offsets), n.Type)
	case *Aggregate:
		name := data.Op.String()
		if data.Func.IsValid() {
			name += " '" + syms.Function(data.Func).Name + "'"
		}
		d.line(depth, "Aggregate %s : %s", name, n.Type)
	case *Block:
		if data.IsRoot {
			d.line(depth, "Block (root)")
		} else {
			d.line(depth, "Block")
		}
	case *Declaration:
		d.line(depth, "Declaration")
	case *Loop:
		d.line(depth, "Loop %s", [...]string{"for", "while", "do-while"}[data.Kind])
	case *IfElse:
		d.line(depth, "IfElse")
	case *Branch:
		d.line(depth, "Branch %s", data.Op)
	case *Switch:
		d.line(depth, "Switch")
	case *Case:
		if data.Cond == NoNode {
			d.line(depth, "Default")
		} else {
			d.line(depth, "Case")
		}
	case *FunctionPrototype:
		f := syms.Function(data.Func)
		d.line(depth, "FunctionPrototype '%s' #%d (%s) : %s", f.Name, data.Func, f.Kind, f.Return)
		for _, p := range f.Params {
			pv := syms.Variable(p)
			d.line(depth+1, "Param '%s' #%d : %s", pv.Name, p, pv.Type)
		}
	case *FunctionDefinition:
		d.line(depth, "FunctionDefinition")
	case *GlobalQualifierDecl:
		var q []string
		if data.Invariant {
			q = append(q, "invariant")
		}
		if data.Precise {
			q = append(q, "precise")
		}
		d.line(depth, "GlobalQualifierDecl %s", strings.Join(q, " "))
	case *PreprocessorDirective:
		d.line(depth, "Directive %s", data.Command)
	default:
		d.line(depth, "%T", data)
	}
	for _, c := range d.tree.Children(id) {
		d.node(c, depth+1)
	}
}

func formatConst(vals []ConstValue) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		switch v.Basic {
		case BasicFloat:
			parts[i] = strconv.FormatFloat(float64(v.Float), 'g', -1, 32)
		case BasicInt:
			parts[i] = strconv.Itoa(int(v.Int))
		case BasicUInt:
			parts[i] = strconv.FormatUint(uint64(v.UInt), 10) + "u"
		case BasicBool:
			parts[i] = strconv.FormatBool(v.Bool)
		default:
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}

func swizzleString(offsets []int) string {
	const xyzw = "xyzw"
	var sb strings.Builder
	for _, o := range offsets {
		if o >= 0 && o < len(xyzw) {
			sb.WriteByte(xyzw[o])
		} else {
			sb.WriteByte('?')
		}
	}
	return sb.String()
}
