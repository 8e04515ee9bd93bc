// Package query answers monitoring queries over the full job record set.
//
// Every query reads the whole set from a [Source] and filters it in
// memory with composable [Filter] predicates; stores have no secondary
// indexes. Results have no guaranteed order. Use [SortByTimestamp] or
// [SortByJobID] when one is needed.
//
//	svc := query.New(query.StoreSource(st))
//	failed, err := svc.Filter(ctx, query.Criteria{
//	    Statuses:   []record.Status{record.StatusFailed},
//	    SinceHours: 24,
//	})
package query
