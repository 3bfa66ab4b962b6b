package gormdb

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// ExtractTx returns the transaction bound to the context, or the fallback
// connection when the caller is not inside one.
func ExtractTx(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}

func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}
