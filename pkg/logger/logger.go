package logger

import (
	"fmt"
	"log"
	"os"
)

var (
	InfoLogger  *log.Logger
	WarnLogger  *log.Logger
	ErrorLogger *log.Logger
)

func init() {
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	WarnLogger = log.New(os.Stdout, "WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
}

func Info(msg string, v ...interface{}) {
	InfoLogger.Output(2, fmt.Sprintf(msg, v...))
}

func Warn(msg string, v ...interface{}) {
	WarnLogger.Output(2, fmt.Sprintf(msg, v...))
}

// Error logs msg with err appended when err is not nil.
func Error(msg string, err error, v ...interface{}) {
	if err != nil {
		ErrorLogger.Output(2, fmt.Sprintf(msg+": %v", append(v, err)...))
		return
	}
	ErrorLogger.Output(2, fmt.Sprintf(msg, v...))
}
