package services

import (
	"context"

	"github.com/mroshb/sweatcheck/pkg/errors"
	"github.com/mroshb/sweatcheck/pkg/logger"
	"gorm.io/gorm"
)

// Outcome is what a mutating operation reports to its caller. Rule violations
// come back as OK=false with a message meant for the user; infrastructure
// faults are returned as errors instead.
type Outcome struct {
	OK      bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func succeeded(message string) Outcome {
	return Outcome{OK: true, Message: message}
}

func failed(appErr *errors.AppError) Outcome {
	return Outcome{OK: false, Message: appErr.Message, Code: appErr.Code}
}

// settle turns err into an Outcome. Business errors are absorbed, faults are
// logged and passed through.
func settle(op string, err error, successMessage string, fields ...interface{}) (Outcome, error) {
	if err == nil {
		return succeeded(successMessage), nil
	}
	if errors.IsBusiness(err) {
		appErr, _ := errors.As(err)
		logger.Debug(op+" rejected", append(fields, "code", appErr.Code, "reason", appErr.Message)...)
		return failed(appErr), nil
	}
	logger.Error(op+" failed", append(fields, "error", err)...)
	return Outcome{}, err
}

// inTx runs fn as one unit of work: commit when it returns nil, roll back otherwise.
// fn returns the success message.
func inTx(ctx context.Context, db *gorm.DB, op string, fn func(tx *gorm.DB) (string, error), fields ...interface{}) (Outcome, error) {
	var message string
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		msg, err := fn(tx)
		if err != nil {
			return err
		}
		message = msg
		return nil
	})
	return settle(op, err, message, fields...)
}
