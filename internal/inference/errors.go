package inference

import (
	"github.com/funvibe/stc/internal/ast"
	"github.com/funvibe/stc/internal/diagnostics"
)

func positionKey(tok ast.Token) uint64 {
	return uint64(uint32(tok.Line))<<32 | uint64(uint32(tok.Column))
}

// MarkReported records that an error was reported at tok. It returns
// false if the location was already reported.
func (c *Context) MarkReported(tok ast.Token) bool {
	return c.reported.Insert(positionKey(tok))
}

// IsReported reports whether an error was already reported at tok.
func (c *Context) IsReported(tok ast.Token) bool {
	return c.reported.Contains(positionKey(tok))
}

// PushErrorCollector makes col the target of subsequent reports.
func (c *Context) PushErrorCollector(col *diagnostics.Collector) { c.collectors.push(col) }

// PushNewErrorCollector pushes and returns an empty collector for the current file.
func (c *Context) PushNewErrorCollector() *diagnostics.Collector {
	col := diagnostics.NewCollector(c.File)
	c.collectors.push(col)
	return col
}

// PopErrorCollector removes the innermost collector. The file's own
// collector at the bottom is never removed.
func (c *Context) PopErrorCollector() *diagnostics.Collector {
	if c.collectors.depth() <= 1 {
		return nil
	}
	return c.collectors.pop()
}

// ErrorCollector returns the innermost collector.
func (c *Context) ErrorCollector() *diagnostics.Collector { return c.collectors.peek() }

// ErrorCollectors returns every collector, innermost first.
func (c *Context) ErrorCollectors() []*diagnostics.Collector { return c.collectors.view() }

// Report adds err to the innermost collector unless its location was
// already reported. It returns whether the error was kept.
func (c *Context) Report(err *diagnostics.DiagnosticError) bool {
	if !c.MarkReported(err.Token) {
		return false
	}
	c.ErrorCollector().Add(err)
	return true
}

// Speculate runs fn against a fresh error collector and block frame. Both,
// and any frame fn leaves open, are popped on every exit including a panic.
// When fn returns nil the attempt's errors are merged into the enclosing
// collector. Otherwise they are discarded, the reported locations are
// restored, and the collector is still returned for inspection.
func (c *Context) Speculate(fn func() error) (collected *diagnostics.Collector, err error) {
	before := c.depths()
	reported := c.reported.Copy()
	collected = c.PushNewErrorCollector()
	c.PushBlock(&ast.BlockStatement{})

	completed := false
	defer func() {
		c.restore(before)
		if completed && err == nil {
			c.ErrorCollector().Merge(collected)
			return
		}
		c.reported = reported
	}()

	err = fn()
	completed = true
	return collected, err
}
