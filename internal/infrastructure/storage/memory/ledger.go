package memory

import (
	"context"
	"sort"
	"time"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/id"
	"kiosko/internal/domain/registers/lot"
)

// LotRepo implements lot.Repository.
type LotRepo struct{ s *Store }

func (r *LotRepo) Create(ctx context.Context, l lot.Lot) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.lots[l.ID]; ok {
			return apperror.NewDuplicate("lot", "id", l.ID.String())
		}
		for _, existing := range st.lots {
			if existing.ProductID == l.ProductID && existing.Number == l.Number {
				return apperror.NewDuplicate("lot", "number", l.Number)
			}
		}
		st.lots[l.ID] = l
		return nil
	})
}

func (r *LotRepo) Update(ctx context.Context, l lot.Lot) (lot.Lot, error) {
	err := r.s.write(ctx, func(st *state) error {
		cur, ok := st.lots[l.ID]
		if !ok {
			return apperror.NewNotFound("lot", l.ID)
		}
		if cur.Version != l.Version {
			return apperror.NewConcurrentModification("lot", l.ID)
		}
		l.Base = l.Base.NextVersion()
		st.lots[l.ID] = l
		return nil
	})
	if err != nil {
		return lot.Lot{}, err
	}
	return l, nil
}

func (r *LotRepo) GetByID(ctx context.Context, lotID id.ID) (lot.Lot, error) {
	var out lot.Lot
	err := r.s.read(ctx, func(st *state) error {
		l, ok := st.lots[lotID]
		if !ok {
			return apperror.NewNotFound("lot", lotID)
		}
		out = l
		return nil
	})
	return out, err
}

func (r *LotRepo) GetByNumber(ctx context.Context, productID id.ID, number string) (lot.Lot, error) {
	var out lot.Lot
	err := r.s.read(ctx, func(st *state) error {
		for _, l := range st.lots {
			if l.ProductID == productID && l.Number == number {
				out = l
				return nil
			}
		}
		return apperror.NewNotFound("lot", number)
	})
	return out, err
}

func (r *LotRepo) GetForUpdate(ctx context.Context, lotID id.ID) (lot.Lot, error) {
	return r.GetByID(ctx, lotID)
}

func (r *LotRepo) ListAvailable(ctx context.Context, productID id.ID) ([]lot.Lot, error) {
	return r.list(ctx, func(l lot.Lot) bool { return l.ProductID == productID }), nil
}

func (r *LotRepo) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]lot.Lot, error) {
	return r.list(ctx, func(l lot.Lot) bool {
		return (from.IsZero() || !l.ExpiresAt.Before(from)) && l.ExpiresAt.Before(to)
	}), nil
}

func (r *LotRepo) Delete(ctx context.Context, lotID id.ID) error {
	return r.s.write(ctx, func(st *state) error {
		l, ok := st.lots[lotID]
		if !ok {
			return apperror.NewNotFound("lot", lotID)
		}
		if l.Consumed > 0 {
			return apperror.NewBusinessRule("lot_consumed", "lot "+l.Number+" has sales and cannot be deleted")
		}
		delete(st.lots, lotID)
		return nil
	})
}

// list returns lots with stock left matching keep, nearest expiry first.
func (r *LotRepo) list(ctx context.Context, keep func(lot.Lot) bool) []lot.Lot {
	out := make([]lot.Lot, 0)
	_ = r.s.read(ctx, func(st *state) error {
		for _, l := range st.lots {
			if l.Available() > 0 && keep(l) {
				out = append(out, l)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpiresAt.Equal(out[j].ExpiresAt) {
			return out[i].ExpiresAt.Before(out[j].ExpiresAt)
		}
		return out[i].Number < out[j].Number
	})
	return out
}
