// Package log is a small leveled, key-value logger in the style the
// teacher lineage uses throughout (`log.Info("msg", "k", v, ...)`).
// It exists because that package's own source wasn't retrievable from
// the teacher -- only its call sites were -- so it is rebuilt here
// rather than copied, using the same dependency choices the teacher
// already committed to in go.mod.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-stack/stack"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Level is a logging verbosity, ordered from least to most verbose.
type Level int

const (
	LvlCrit Level = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
	LvlTrace
)

func (l Level) String() string {
	switch l {
	case LvlCrit:
		return "CRIT"
	case LvlError:
		return "ERROR"
	case LvlWarn:
		return "WARN"
	case LvlInfo:
		return "INFO"
	case LvlDebug:
		return "DEBUG"
	case LvlTrace:
		return "TRACE"
	default:
		return "????"
	}
}

var levelColor = map[Level]string{
	LvlCrit:  "\x1b[35m", // magenta
	LvlError: "\x1b[31m", // red
	LvlWarn:  "\x1b[33m", // yellow
	LvlInfo:  "\x1b[32m", // green
	LvlDebug: "\x1b[36m", // cyan
	LvlTrace: "\x1b[90m", // bright black
}

const colorReset = "\x1b[0m"

// Logger writes leveled, key-value log lines to an underlying writer.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	color  bool
	level  Level
	caller bool
}

// New builds a Logger writing to w. color enables ANSI level coloring;
// caller enables file:line capture via go-stack.
func New(w io.Writer, color, caller bool) *Logger {
	return &Logger{out: w, color: color, level: LvlInfo, caller: caller}
}

// NewStdout builds a Logger writing to stdout, auto-detecting whether
// it is a terminal (and therefore whether to colorize) the same way
// the teacher's dependency graph (go-colorable + go-isatty) is meant
// to be used.
func NewStdout() *Logger {
	f := os.Stdout
	isTTY := isatty.IsTerminal(f.Fd())
	var w io.Writer = f
	if isTTY {
		w = colorable.NewColorable(f)
	}
	return New(w, isTTY, true)
}

// SetLevel changes the minimum level that will be emitted.
func (l *Logger) SetLevel(lvl Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = lvl
}

func (l *Logger) log(lvl Level, msg string, ctx []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lvl > l.level {
		return
	}

	var b strings.Builder
	b.WriteString(time.Now().UTC().Format("2006-01-02T15:04:05.000Z"))
	b.WriteByte(' ')

	if l.color {
		b.WriteString(levelColor[lvl])
		b.WriteString(lvl.String())
		b.WriteString(colorReset)
	} else {
		b.WriteString(lvl.String())
	}
	b.WriteByte(' ')
	b.WriteString(msg)

	if l.caller {
		// Skip log -> Logger level method; if the next frame is still
		// in this package it is a package-level level func, skip it too.
		call := stack.Caller(2)
		if fmt.Sprintf("%+k", call) == fmt.Sprintf("%+k", stack.Caller(0)) {
			call = stack.Caller(3)
		}
		fmt.Fprintf(&b, " (%+v)", call)
	}

	for i := 0; i+1 < len(ctx); i += 2 {
		fmt.Fprintf(&b, " %v=%v", ctx[i], ctx[i+1])
	}
	b.WriteByte('\n')

	io.WriteString(l.out, b.String())
}

// Dump renders v for inclusion in a Trace-level log line. It is the
// only place in this package allowed to reach for go-spew: a fuller,
// recursive dump is only worth the cost at the highest verbosity.
func Dump(v interface{}) string {
	return spew.Sdump(v)
}

func (l *Logger) Trace(msg string, ctx ...interface{}) { l.log(LvlTrace, msg, ctx) }
func (l *Logger) Debug(msg string, ctx ...interface{}) { l.log(LvlDebug, msg, ctx) }
func (l *Logger) Info(msg string, ctx ...interface{})  { l.log(LvlInfo, msg, ctx) }
func (l *Logger) Warn(msg string, ctx ...interface{})  { l.log(LvlWarn, msg, ctx) }
func (l *Logger) Error(msg string, ctx ...interface{}) { l.log(LvlError, msg, ctx) }
func (l *Logger) Crit(msg string, ctx ...interface{})  { l.log(LvlCrit, msg, ctx) }

// root is the package-level logger used by the free functions below,
// mirroring the teacher's package-level log.Info/.../log.Crit calls.
var root = NewStdout()

// Root returns the package-level logger so callers (e.g. cmd/) can
// adjust its level or swap its writer.
func Root() *Logger { return root }

func SetLevel(lvl Level)                  { root.SetLevel(lvl) }
func Trace(msg string, ctx ...interface{}) { root.Trace(msg, ctx...) }
func Debug(msg string, ctx ...interface{}) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...interface{})  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...interface{}) { root.Error(msg, ctx...) }
func Crit(msg string, ctx ...interface{})  { root.Crit(msg, ctx...) }
