package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger writes the trading session activity log. One file is created per
// session; all components share the same instance. A nil *Logger is safe to
// call, so logging stays optional in tests and library use.
type Logger struct {
	session string
	mode    string
	logFile *os.File
	logger  *log.Logger
	mu      sync.Mutex
	logDir  string
}

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
	LogLevelTrade   LogLevel = "TRADE"
	LogLevelStatus  LogLevel = "STATUS"
)

// NewLogger creates a new file logger for the given session name and run
// mode (paper/backtest).
func NewLogger(session, mode string) (*Logger, error) {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("%s_%s_%s.log", session, mode, timestamp)
	logPath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := &Logger{
		session: session,
		mode:    mode,
		logFile: file,
		logger:  log.New(file, "", 0),
		logDir:  logDir,
	}

	l.writeSessionHeader()
	return l, nil
}

// writeSessionHeader writes a session start header to the log
func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
🚀 TRADING SESSION STARTED
================================================================================
Session: %s | Mode: %s
Started: %s
================================================================================
`, l.session, l.mode, time.Now().Format("2006-01-02 15:04:05"))

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	l.logger.Println(fmt.Sprintf("[%s] [%s] %s", timestamp, level, message))
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// Trade logs a trading action
func (l *Logger) Trade(format string, args ...interface{}) {
	l.Log(LogLevelTrade, format, args...)
}

// Status logs market status information
func (l *Logger) Status(format string, args ...interface{}) {
	l.Log(LogLevelStatus, format, args...)
}

// LogTradeExecution logs a filled order with its position context
func (l *Logger) LogTradeExecution(side, ticker, tradeID string, price, quantity, totalQuote, fee float64, reason string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")

	tradeLog := fmt.Sprintf(`
[%s] [TRADE] ==================== %s EXECUTED ====================
✅ Trade ID: %s
🪙 Ticker: %s
💰 Price: %.2f
📦 Quantity: %.8f
💵 Total: %.2f (fee %.2f)
📝 Reason: %s
=============================================================`,
		timestamp, side, tradeID, ticker, price, quantity, totalQuote, fee, reason)

	l.logger.Println(tradeLog)
}

// LogPositionClosed logs a completed round trip
func (l *Logger) LogPositionClosed(ticker string, entryPrice, exitPrice, profit, profitPct float64) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")

	cycleLog := fmt.Sprintf(`
[%s] [TRADE] ==================== POSITION CLOSED ====================
🪙 Ticker: %s
🎯 Entry Price: %.2f
🚪 Exit Price: %.2f
💹 Profit: %.2f (%.2f%%)
==============================================================`,
		timestamp, ticker, entryPrice, exitPrice, profit, profitPct)

	l.logger.Println(cycleLog)
}

// LogError logs an error with context
func (l *Logger) LogError(context string, err error) {
	l.Error("%s: %v", context, err)
}

// Close closes the log file
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		timestamp := time.Now().Format("2006-01-02 15:04:05")
		footer := fmt.Sprintf(`
================================================================================
🛑 TRADING SESSION ENDED
================================================================================
Ended: %s
================================================================================

`, timestamp)
		l.logger.Print(footer)

		return l.logFile.Close()
	}
	return nil
}

// GetLogPath returns the current log file path
func (l *Logger) GetLogPath() string {
	timestamp := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("%s_%s_%s.log", l.session, l.mode, timestamp)
	return filepath.Join(l.logDir, filename)
}
