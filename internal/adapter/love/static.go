package love

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.ngs.io/satstress/internal/domain"
)

// StaticSolver answers every request with the same Love numbers. It lets
// users supply Love numbers computed elsewhere.
type StaticSolver struct {
	Love domain.LoveNumbers
}

// SolveLove implements domain.LoveSolver.
func (s StaticSolver) SolveLove(ctx context.Context, _ domain.LoveRequest) (domain.LoveNumbers, error) {
	if err := ctx.Err(); err != nil {
		return domain.LoveNumbers{}, err
	}
	return s.Love, nil
}

// FuncSolver adapts a function to domain.LoveSolver.
type FuncSolver func(ctx context.Context, req domain.LoveRequest) (domain.LoveNumbers, error)

// SolveLove implements domain.LoveSolver.
func (f FuncSolver) SolveLove(ctx context.Context, req domain.LoveRequest) (domain.LoveNumbers, error) {
	return f(ctx, req)
}

// ParseStatic parses "h2r,h2i,k2r,k2i,l2r,l2i" into Love numbers.
func ParseStatic(s string) (domain.LoveNumbers, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 6 {
		return domain.LoveNumbers{}, fmt.Errorf("expected 6 comma separated values (h2r,h2i,k2r,k2i,l2r,l2i), got %d", len(parts))
	}
	v := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.LoveNumbers{}, fmt.Errorf("invalid Love number component %d: %w", i+1, err)
		}
		v[i] = f
	}
	return domain.LoveNumbers{
		H2: complex(v[0], v[1]),
		K2: complex(v[2], v[3]),
		L2: complex(v[4], v[5]),
	}, nil
}
