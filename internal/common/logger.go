package common

import (
	"go.uber.org/zap"
)

// NewLogger builds the shared sugared logger. Development mode gets the
// human-readable console encoder, everything else logs JSON.
func NewLogger(environment string) (*zap.SugaredLogger, error) {
	var l *zap.Logger
	var err error
	if environment == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
