package parser

import (
	"github.com/kindy/goacorn/pkg/ast"
	"github.com/kindy/goacorn/pkg/token"
)

// startNode begins a node at the current token's start (spec §4.7's
// "AST construction": every node records where its first token began).
func (p *Parser) startNode() *ast.Node {
	return &ast.Node{Start: p.start()}
}

// startNodeAt begins a node at an already-captured position, used when
// a production backtracks conceptually (e.g. an arrow function's node
// must start where its parameter list started, not where `=>` did).
func (p *Parser) startNodeAt(start int) *ast.Node {
	return &ast.Node{Start: start}
}

// finishNode closes off n at the end of the token just consumed and
// attaches n.Type.
func (p *Parser) finishNode(n *ast.Node, t ast.Type) *ast.Node {
	return p.finishNodeAt(n, t, p.lastEnd())
}

func (p *Parser) finishNodeAt(n *ast.Node, t ast.Type, end int) *ast.Node {
	n.Type = t
	n.End = end
	if p.cfg.Locations {
		n.Loc = &token.SourceLocation{Source: p.cfg.SourceFile, Start: p.buf.PositionAt(n.Start), End: p.buf.PositionAt(end)}
	}
	if p.cfg.Ranges {
		r := [2]int{n.Start, end}
		n.Range = &r
	}
	if p.cfg.DirectSourceFile != "" {
		n.SourceFile = p.cfg.DirectSourceFile
	}
	return n
}
