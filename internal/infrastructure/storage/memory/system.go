package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/id"
	"kiosko/internal/core/types"
	"kiosko/internal/domain/audit"
	"kiosko/internal/domain/auth"
	"kiosko/internal/domain/reports"
)

// UserRepo implements auth.UserRepository.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(ctx context.Context, u auth.User) error {
	return r.s.write(ctx, func(st *state) error {
		for _, existing := range st.users {
			if existing.Username == u.Username {
				return apperror.NewDuplicate("user", "username", u.Username)
			}
		}
		st.users[u.ID] = u
		return nil
	})
}

func (r *UserRepo) Update(ctx context.Context, u auth.User) (auth.User, error) {
	err := r.s.write(ctx, func(st *state) error {
		cur, ok := st.users[u.ID]
		if !ok {
			return apperror.NewNotFound("user", u.ID)
		}
		if cur.Version != u.Version {
			return apperror.NewConcurrentModification("user", u.ID)
		}
		u.Base = u.Base.NextVersion()
		st.users[u.ID] = u
		return nil
	})
	if err != nil {
		return auth.User{}, err
	}
	return u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (auth.User, error) {
	var out auth.User
	err := r.s.read(ctx, func(st *state) error {
		u, ok := st.users[userID]
		if !ok {
			return apperror.NewNotFound("user", userID)
		}
		out = u
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (auth.User, error) {
	var out auth.User
	username = strings.ToLower(strings.TrimSpace(username))
	err := r.s.read(ctx, func(st *state) error {
		for _, u := range st.users {
			if u.Username == username {
				out = u
				return nil
			}
		}
		return apperror.NewNotFound("user", username)
	})
	return out, err
}

func (r *UserRepo) List(ctx context.Context) ([]auth.User, error) {
	out := make([]auth.User, 0)
	_ = r.s.read(ctx, func(st *state) error {
		for _, u := range st.users {
			out = append(out, u)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// AuditRepo implements audit.Repository.
type AuditRepo struct{ s *Store }

func (r *AuditRepo) Append(ctx context.Context, e audit.Entry) error {
	return r.s.write(ctx, func(st *state) error {
		st.audit = append(st.audit, e)
		return nil
	})
}

func (r *AuditRepo) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error) {
	out := make([]audit.Entry, 0)
	_ = r.s.read(ctx, func(st *state) error {
		for i := len(st.audit) - 1; i >= 0 && len(out) < limit; i-- {
			if e := st.audit[i]; e.EntityType == entityType && e.EntityID == entityID {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, nil
}

// SequenceCounter implements numerator.Counter. Values live in the store state,
// so numbers reserved by a failed unit of work are released with it.
type SequenceCounter struct{ s *Store }

func (c *SequenceCounter) Reserve(ctx context.Context, key string, n int64) (int64, error) {
	var last int64
	err := c.s.write(ctx, func(st *state) error {
		st.sequences[key] += n
		last = st.sequences[key]
		return nil
	})
	return last, err
}

func (c *SequenceCounter) Reset(ctx context.Context, key string, value int64) error {
	return c.s.write(ctx, func(st *state) error {
		st.sequences[key] = value
		return nil
	})
}

// ReportRepo implements reports.Repository over the stored sales and payments.
type ReportRepo struct{ s *Store }

func (r *ReportRepo) SalesTotals(ctx context.Context, from, to time.Time) (reports.SalesTotals, error) {
	var (
		out             reports.SalesTotals
		totals, profits []types.Money
	)
	_ = r.s.read(ctx, func(st *state) error {
		for _, sl := range st.sales {
			if !inRange(sl.SoldAt, from, to) {
				continue
			}
			out.SaleCount++
			totals = append(totals, sl.Total)
			profits = append(profits, sl.Profit)
		}
		return nil
	})
	out.Total = types.Sum(totals...)
	out.Profit = types.Sum(profits...)
	return out, nil
}

func (r *ReportRepo) PaymentsTotal(ctx context.Context, from, to time.Time) (types.Money, error) {
	var amounts []types.Money
	_ = r.s.read(ctx, func(st *state) error {
		for _, p := range st.payments {
			if inRange(p.PaidAt, from, to) {
				amounts = append(amounts, p.Amount)
			}
		}
		return nil
	})
	return types.Sum(amounts...), nil
}

func (r *ReportRepo) SalesByDay(ctx context.Context, from, to time.Time, loc *time.Location) ([]reports.DailySales, error) {
	byDay := make(map[time.Time]*reports.DailySales)
	_ = r.s.read(ctx, func(st *state) error {
		for _, sl := range st.sales {
			if !inRange(sl.SoldAt, from, to) {
				continue
			}
			t := sl.SoldAt.In(loc)
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
			d, ok := byDay[day]
			if !ok {
				d = &reports.DailySales{Day: day, Total: types.Zero(), Profit: types.Zero()}
				byDay[day] = d
			}
			d.SaleCount++
			d.Total = d.Total.Add(sl.Total)
			d.Profit = d.Profit.Add(sl.Profit)
		}
		return nil
	})

	out := make([]reports.DailySales, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (r *ReportRepo) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]reports.ProductSales, error) {
	byProduct := make(map[id.ID]*reports.ProductSales)
	_ = r.s.read(ctx, func(st *state) error {
		for _, sl := range st.sales {
			if !inRange(sl.SoldAt, from, to) {
				continue
			}
			for _, l := range sl.Lines {
				p, ok := byProduct[l.ProductID]
				if !ok {
					p = &reports.ProductSales{
						ProductID:   l.ProductID,
						ProductCode: l.ProductCode,
						ProductName: l.ProductName,
						Total:       types.Zero(),
						Profit:      types.Zero(),
					}
					byProduct[l.ProductID] = p
				}
				p.Quantity += l.Quantity
				p.Total = p.Total.Add(l.Subtotal)
				p.Profit = p.Profit.Add(l.Profit)
			}
		}
		return nil
	})

	out := make([]reports.ProductSales, 0, len(byProduct))
	for _, p := range byProduct {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].ProductCode < out[j].ProductCode
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
