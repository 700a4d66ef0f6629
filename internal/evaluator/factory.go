package evaluator

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Evaluator kinds.
const (
	KindGo  = "go"
	KindSQL = "sql"
)

// Options selects and configures the evaluator.
type Options struct {
	Kind      string
	GoPath    string
	GoImports []string
	SQLDriver string
	SQLDSN    string
}

// New returns a factory for the configured evaluator kind.
func New(opts Options, logger *zap.Logger) (Factory, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch opts.Kind {
	case KindGo, "":
		return FactoryFunc(func(ctx context.Context) (Session, error) {
			logger.Debug("opening go session", zap.Strings("imports", opts.GoImports))
			return NewGoSession(opts.GoPath, opts.GoImports)
		}), nil
	case KindSQL:
		if opts.SQLDriver == "" {
			return nil, fmt.Errorf("sql evaluator: no driver configured")
		}
		return FactoryFunc(func(ctx context.Context) (Session, error) {
			logger.Debug("opening sql session", zap.String("driver", opts.SQLDriver))
			return OpenSQL(ctx, opts.SQLDriver, opts.SQLDSN)
		}), nil
	}
	return nil, fmt.Errorf("unknown evaluator %q", opts.Kind)
}
