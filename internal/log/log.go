package log

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/speakeasy-api/mergerepo/internal/charm/styles"
	"github.com/speakeasy-api/mergerepo/internal/env"
	"github.com/speakeasy-api/mergerepo/internal/utils"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarn    Level = "warn"
	LevelErr     Level = "error"
	LevelSuccess Level = "success"
)

type contextKey string

const loggerContextKey contextKey = "cli-logger-context"

var Levels = []string{string(LevelInfo), string(LevelWarn), string(LevelErr)}

type Logger struct {
	level           Level
	associatedFile  string
	fields          []zapcore.Field
	interactiveOnly bool
	formatter       func(l Logger, level Level, msg string, err error) string
	writer          io.Writer
}

// With returns a new context with the given logger added to the context.
func With(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, l)
}

// From returns the logger associated with the given context.
func From(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerContextKey).(Logger); ok {
		return l
	}
	return New()
}

func New() Logger {
	l := Logger{
		level:     LevelInfo,
		formatter: BasicFormatter,
		writer:    os.Stderr,
	}

	switch {
	case env.IsGithubAction():
		return l.WithFormatter(GithubFormatter)
	case env.IsNoColor():
		return l.WithFormatter(PlainFormatter)
	}

	return l
}

/**
 * Builders
 */

func (l Logger) WithLevel(level Level) Logger {
	l2 := l.Copy()
	l2.level = level
	return l2
}

func (l Logger) WithAssociatedFile(associatedFile string) Logger {
	l2 := l.Copy()
	l2.associatedFile = associatedFile
	return l2
}

func (l Logger) WithInteractiveOnly() Logger {
	l2 := l.Copy()
	l2.interactiveOnly = true
	return l2
}

func (l Logger) With(fields ...zapcore.Field) Logger {
	l2 := l.Copy()
	l2.fields = append(append([]zapcore.Field{}, l.fields...), fields...)
	return l2
}

func (l Logger) WithFormatter(formatter func(l Logger, level Level, msg string, err error) string) Logger {
	l2 := l.Copy()
	l2.formatter = formatter
	return l2
}

func (l Logger) WithWriter(w io.Writer) Logger {
	l2 := l.Copy()
	l2.writer = w
	return l2
}

func (l Logger) Copy() Logger {
	return Logger{
		level:           l.level,
		associatedFile:  l.associatedFile,
		fields:          l.fields,
		interactiveOnly: l.interactiveOnly,
		formatter:       l.formatter,
		writer:          l.writer,
	}
}

/**
 * Logging methods
 */

func (l Logger) Info(msg string, fields ...zapcore.Field) {
	if l.level != LevelInfo {
		return
	}

	l.log(LevelInfo, msg, fields)
}

func (l Logger) Infof(format string, a ...any) {
	l.Info(fmt.Sprintf(format, a...))
}

func (l Logger) Warn(msg string, fields ...zapcore.Field) {
	if l.level != LevelInfo && l.level != LevelWarn {
		return
	}

	l.log(LevelWarn, msg, fields)
}

func (l Logger) Error(msg string, fields ...zapcore.Field) {
	l.log(LevelErr, msg, fields)
}

func (l Logger) Success(msg string, fields ...zapcore.Field) {
	l.log(LevelSuccess, msg, fields)
}

func (l Logger) PrintfStyled(style lipgloss.Style, format string, a ...any) {
	l.PrintlnUnstyled(style.Render(fmt.Sprintf(format, a...)))
}

func (l Logger) Println(s string) {
	l.Print(s + "\n")
}

func (l Logger) Print(s string) {
	if l.interactiveOnly && !utils.IsInteractive() {
		return
	}
	fmt.Fprint(l.writer, s)
}

func (l Logger) PrintlnUnstyled(a any) {
	if l.interactiveOnly && !utils.IsInteractive() {
		return
	}
	fmt.Fprintln(l.writer, a)
}

func (l Logger) log(level Level, msg string, fields []zapcore.Field) {
	fields = append(append([]zapcore.Field{}, l.fields...), fields...)

	msg, err, fields := getMessage(msg, fields)

	msg = l.format(level, msg, err) + fieldsToJSON(fields)
	l.Println(msg)
}

func (l Logger) format(level Level, msg string, err error) string {
	return l.formatter(l, level, msg, err)
}

/**
 * Formatters
 */

func BasicFormatter(l Logger, level Level, msg string, err error) string {
	switch level {
	case LevelInfo:
		return styles.Info.Render(msg)
	case LevelWarn:
		return styles.Warning.Render(msg)
	case LevelErr:
		return styles.Error.Render(msg)
	case LevelSuccess:
		return styles.Success.Render(msg)
	}

	return ""
}

func PlainFormatter(l Logger, level Level, msg string, err error) string {
	return msg
}

func GithubFormatter(l Logger, level Level, msg string, err error) string {
	switch level {
	case LevelWarn:
		return fmt.Sprintf("::warning%s::%s", getGithubAnnotationAttributes(l.associatedFile), msg)
	case LevelErr:
		return fmt.Sprintf("::error%s::%s", getGithubAnnotationAttributes(l.associatedFile), msg)
	}

	return msg
}

/**
 * Utilities
 */

func getGithubAnnotationAttributes(associatedFile string) string {
	if associatedFile == "" {
		return ""
	}

	return fmt.Sprintf(" file=%s", filepath.Clean(associatedFile))
}

func getMessage(msg string, fields []zapcore.Field) (string, error, []zapcore.Field) {
	fields, err := findError(fields)
	if err != nil {
		if msg == "" {
			msg = err.Error()
		} else {
			fields = append(fields, zap.Error(err))
		}
	}

	return msg, err, fields
}

func findError(fields []zapcore.Field) ([]zapcore.Field, error) {
	var err error
	filteredFields := []zapcore.Field{}
	for _, field := range fields {
		if field.Type == zapcore.ErrorType {
			if foundErr, ok := field.Interface.(error); ok && err == nil {
				err = foundErr
				continue
			}
		}
		filteredFields = append(filteredFields, field)
	}

	return filteredFields, err
}

func fieldsToJSON(fields []zapcore.Field) string {
	jsonObj := map[string]any{}

	for _, field := range fields {
		switch field.Type {
		case zapcore.StringType:
			jsonObj[field.Key] = field.String
		case zapcore.Int64Type, zapcore.Int32Type:
			jsonObj[field.Key] = field.Integer
		case zapcore.BoolType:
			jsonObj[field.Key] = field.Integer == 1
		case zapcore.DurationType:
			jsonObj[field.Key] = time.Duration(field.Integer).String()
		case zapcore.ErrorType:
			if err, ok := field.Interface.(error); ok {
				jsonObj[field.Key] = err.Error()
			} else {
				jsonObj[field.Key] = field.Interface
			}
		default:
			if field.Interface != nil {
				jsonObj[field.Key] = field.Interface
			} else {
				jsonObj[field.Key] = field.String
			}
		}
	}

	if len(jsonObj) == 0 {
		return ""
	}

	data, err := json.Marshal(jsonObj)
	if err != nil {
		return ""
	}

	return "\t" + string(data)
}
