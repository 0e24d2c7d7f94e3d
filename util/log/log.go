// Copyright 2024 The StratoFS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package log

import (
	"fmt"
	"log"
	"os"
	"path"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Level uint8

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

var levelPrefixes = []string{
	"[DEBUG]",
	"[INFO.]",
	"[WARN.]",
	"[ERROR]",
	"[FATAL]",
}

const (
	DebugLogFileName = "_debug.log"
	InfoLogFileName  = "_info.log"
	WarnLogFileName  = "_warn.log"
	ErrLogFileName   = "_error.log"

	defaultRollingSizeMB = 512
	defaultMaxBackups    = 10
	defaultMaxAgeDays    = 7
)

// ParseLevel maps a config string to a Level, falling back to def.
func ParseLevel(levelName string, def Level) Level {
	switch strings.ToLower(levelName) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal", "critical":
		return FatalLevel
	default:
		return def
	}
}

// Log writes one size-rotated file per severity under dir, named after the
// module. Rotation is delegated to lumberjack; writes are synchronous.
type Log struct {
	dir         string
	module      string
	level       Level
	debugLogger *log.Logger
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	rollers     []*lumberjack.Logger
}

var gLog *Log

// NewLog initializes the package-level logger. Messages below level are
// discarded at the call site.
func NewLog(dir, module string, level Level) (*Log, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	} else if !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	l := &Log{dir: dir, module: module, level: level}
	newLogger := func(fileName string) *log.Logger {
		roller := &lumberjack.Logger{
			Filename:   path.Join(dir, module+fileName),
			MaxSize:    defaultRollingSizeMB,
			MaxBackups: defaultMaxBackups,
			MaxAge:     defaultMaxAgeDays,
			LocalTime:  true,
		}
		l.rollers = append(l.rollers, roller)
		return log.New(roller, "", log.LstdFlags|log.Lmicroseconds)
	}
	l.debugLogger = newLogger(DebugLogFileName)
	l.infoLogger = newLogger(InfoLogFileName)
	l.warnLogger = newLogger(WarnLogFileName)
	l.errorLogger = newLogger(ErrLogFileName)

	gLog = l
	return l, nil
}

// SetLevel adjusts the threshold at runtime.
func (l *Log) SetLevel(level Level) {
	l.level = level
}

// Close closes every rotated file. Only called on process shutdown.
func (l *Log) Close() {
	for _, roller := range l.rollers {
		roller.Close()
	}
}

func prefixed(s, levelPrefix string) string {
	_, file, line, ok := runtime.Caller(3)
	if !ok {
		file, line = "unknown", 0
	}
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		file = file[idx+1:]
	}
	return levelPrefix + " " + file + ":" + strconv.Itoa(line) + ": " + s
}

func (l *Log) output(level Level, logger *log.Logger, s string) {
	if l == nil || level < l.level {
		return
	}
	logger.Print(prefixed(s, levelPrefixes[level]))
}

func LogDebug(v ...interface{}) {
	gLog.output(DebugLevel, loggerOf(DebugLevel), fmt.Sprintln(v...))
}

func LogDebugf(format string, v ...interface{}) {
	gLog.output(DebugLevel, loggerOf(DebugLevel), fmt.Sprintf(format, v...))
}

func LogInfo(v ...interface{}) {
	gLog.output(InfoLevel, loggerOf(InfoLevel), fmt.Sprintln(v...))
}

func LogInfof(format string, v ...interface{}) {
	gLog.output(InfoLevel, loggerOf(InfoLevel), fmt.Sprintf(format, v...))
}

func LogWarn(v ...interface{}) {
	gLog.output(WarnLevel, loggerOf(WarnLevel), fmt.Sprintln(v...))
}

func LogWarnf(format string, v ...interface{}) {
	gLog.output(WarnLevel, loggerOf(WarnLevel), fmt.Sprintf(format, v...))
}

func LogError(v ...interface{}) {
	gLog.output(ErrorLevel, loggerOf(ErrorLevel), fmt.Sprintln(v...))
}

func LogErrorf(format string, v ...interface{}) {
	gLog.output(ErrorLevel, loggerOf(ErrorLevel), fmt.Sprintf(format, v...))
}

func LogFatalf(format string, v ...interface{}) {
	gLog.output(FatalLevel, loggerOf(FatalLevel), fmt.Sprintf(format, v...))
	LogClose()
	os.Exit(1)
}

func loggerOf(level Level) *log.Logger {
	if gLog == nil {
		return nil
	}
	switch level {
	case DebugLevel:
		return gLog.debugLogger
	case InfoLevel:
		return gLog.infoLogger
	case WarnLevel:
		return gLog.warnLogger
	default:
		return gLog.errorLogger
	}
}

// LogClose closes the package-level logger if one was initialized.
func LogClose() {
	if gLog != nil {
		gLog.Close()
	}
}
