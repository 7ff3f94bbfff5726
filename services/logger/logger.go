package logger

import "log"

// Level định nghĩa các mức độ log
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelLabels = map[Level]string{
	DebugLevel: "[DEBUG] ",
	InfoLevel:  "[INFO] ",
	WarnLevel:  "[WARN] ",
	ErrorLevel: "[ERROR] ",
}

// Logger interface định nghĩa các phương thức logging
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// DefaultLogger implement Logger interface sử dụng log package.
// Log dưới mức cấu hình bị bỏ qua.
type DefaultLogger struct {
	level Level
}

// NewDefaultLogger tạo một instance mới của DefaultLogger
func NewDefaultLogger(level Level) *DefaultLogger {
	return &DefaultLogger{level: level}
}

func (l *DefaultLogger) emit(level Level, format string, v ...interface{}) {
	if l.level > level {
		return
	}
	log.Printf(levelLabels[level]+format, v...)
}

func (l *DefaultLogger) Debug(format string, v ...interface{}) {
	l.emit(DebugLevel, format, v...)
}

func (l *DefaultLogger) Info(format string, v ...interface{}) {
	l.emit(InfoLevel, format, v...)
}

func (l *DefaultLogger) Warn(format string, v ...interface{}) {
	l.emit(WarnLevel, format, v...)
}

func (l *DefaultLogger) Error(format string, v ...interface{}) {
	l.emit(ErrorLevel, format, v...)
}
