package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// kvRepo implements KVRepo with an upsert on (namespace, name).
type kvRepo struct {
	drv *entsql.Driver
}

func (r *kvRepo) Get(ctx context.Context, namespace, name string) ([]byte, bool, error) {
	query, args := builder().Select("value").
		From(entsql.Table(tableKV)).
		Where(entsql.And(entsql.EQ("namespace", namespace), entsql.EQ("name", name))).
		Limit(1).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, false, fmt.Errorf("get %s/%s: %w", namespace, name, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, false, rows.Err()
	}
	var value string
	if err := rows.Scan(&value); err != nil {
		return nil, false, fmt.Errorf("scan %s/%s: %w", namespace, name, err)
	}
	return []byte(value), true, nil
}

func (r *kvRepo) Put(ctx context.Context, namespace, name string, value []byte) error {
	query, args := builder().Insert(tableKV).
		Columns("namespace", "name", "value", "updated_at").
		Values(namespace, name, string(value), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("namespace", "name"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("value")
				u.SetExcluded("updated_at")
			}),
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("put %s/%s: %w", namespace, name, err)
	}
	return nil
}

func (r *kvRepo) Delete(ctx context.Context, namespace, name string) error {
	query, args := builder().Delete(tableKV).
		Where(entsql.And(entsql.EQ("namespace", namespace), entsql.EQ("name", name))).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete %s/%s: %w", namespace, name, err)
	}
	return nil
}
