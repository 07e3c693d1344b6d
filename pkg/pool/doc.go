// Package pool provides a generic object pool for scratch buffers that are
// discarded once a table has been built.
//
//	grids := pool.New(
//		func() *Grid { return &Grid{} },
//		func(g *Grid) { g.Reset() },
//	)
//	g := grids.Get()
//	defer grids.Put(g)
//
// Objects handed out by a pool must not be retained after Put. Anything
// that ends up inside a returned table has to be copied out first.
package pool
