// Package history persists HistoryRecord values in the local SQLite
// database.
//
// Deletes are soft: a deleted record stays as a pending tombstone until the
// deletion has been pushed to the sync server, after which MarkSynced purges
// it. Offline-only installations simply accumulate tombstones, which List
// and GetByID never return.
//
// Typical usage:
//
//	repo := history.NewSQLiteRepository(db)
//	_ = repo.Insert(ctx, rec)
//	list, _ := repo.List(ctx)
//	_ = repo.DeleteByID(ctx, rec.ID)
package history
