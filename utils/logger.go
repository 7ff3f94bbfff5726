package utils

import (
	"fmt"
	"log"
	"os"
	"time"
)

var (
	InfoLogger  *log.Logger
	ErrorLogger *log.Logger
)

// openLogFile mở file log theo ngày trong thư mục logs
func openLogFile() (*os.File, error) {
	if err := os.MkdirAll("logs", 0755); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("logs/hotel-%s.log", time.Now().Format("2006-01-02"))
	return os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
}

func init() {
	logFile, err := openLogFile()
	if err != nil {
		log.Fatal(err)
	}

	flags := log.Ldate | log.Ltime | log.Lshortfile
	InfoLogger = log.New(logFile, "INFO: ", flags)
	ErrorLogger = log.New(logFile, "ERROR: ", flags)
}

// LogInfo ghi log thông tin
func LogInfo(format string, v ...interface{}) {
	InfoLogger.Printf(format, v...)
}

// LogError ghi log lỗi
func LogError(format string, v ...interface{}) {
	ErrorLogger.Printf(format, v...)
}

// LogRequest ghi access log cho một request HTTP
func LogRequest(method, path string, status int, latency time.Duration) {
	InfoLogger.Printf("%s %s -> %d (%s)", method, path, status, latency)
}
