// Package transform runs preparations over datasets.
//
// A transformation builds the graph
//
//	source -> [compile -> action]* -> cleanup -> [delayed analysis] -> writer
//
// executes it, and leaves the final metadata in the content cache under the
// head step id of the preparation.
//
//	svc := transform.NewService(builtin.NewRegistry(), transform.WithCache(c))
//	res, err := svc.Transform(ctx, transform.Request{
//		DataSet:     ds,
//		Preparation: prep,
//		Output:      w,
//	})
package transform
