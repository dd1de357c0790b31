// Package logger provides structured logging for ssekit built on zerolog.
//
// It exposes a thin Logger wrapper with leveled methods taking optional
// field maps, a configurable global logger, and a named-logger registry so
// components like the SSE hub can obtain a tagged logger with logger.Get.
package logger
