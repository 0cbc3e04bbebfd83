// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensorwire

import (
	"sync"

	"go.uber.org/zap"

	"github.com/born-ml/tensorwire/internal/bridge"
	"github.com/born-ml/tensorwire/internal/statestore"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the logger of this package and of every internal
// package that logs. This must be called before any serializer is used.
func SetLogger(l *zap.Logger) {
	logger = l
	bridge.SetLogger(l)
	statestore.SetLogger(l)
}
