// Package loadgate is an embeddable query-shaping layer: it sits
// between a host request protocol that delivers flat text (a filter
// string, an order-by string, a record cap, a bookmark) and a row
// source, and serves filtered, ordered, keyset-paged reads.
//
// # Quick Start
//
//	views, err := loadgate.NewViewBuilder().
//	    View("itemprices", "itemprice").
//	        Key("RowPointer").
//	        Property("RowPointer", filter.KindText).
//	        Property("Item", filter.KindText).
//	        Property("UnitPrice", filter.KindDecimal).
//	        Property("EffectDate", filter.KindDateTime).
//	        DefaultOrderBy("Item ASC, EffectDate DESC").
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	engine, err := loadgate.New(loadgate.Config{
//	    Source: src,
//	    Views:  views,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	page, err := engine.Page(ctx, "itemprices", loadgate.PageRequest{
//	    Filter:    "Item LIKE 'AB%' AND UnitPrice >= 10",
//	    RecordCap: "200",
//	})
//
// Walk pages by feeding each response bookmark into the next request
// until it equals loadgate.BookmarkSentinel.
//
// # Architecture
//
// Incoming filter text is split into atomic clauses and each clause is
// parsed into a typed condition (package filter). The view's property
// registry routes every condition: push-down conditions travel to the
// row source as filter text, post-filter conditions run locally
// against fetched rows (package view). Derived columns are computed
// after fetch and before post-filtering, so they behave like native
// ones.
//
// Paging is keyset-based and stateless. The bookmark token names the
// stable-key value of the last row served; when the request orders by
// the stable key and needs no local evaluation, the engine pushes the
// bookmark down as a key range and fetches one row past the cap,
// otherwise it fetches the whole filtered set, runs the local
// pipeline and slices at the bookmark. Either way the extra fetched
// row is what proves another page exists.
//
// Row sources implement source.Source. The package ships an
// in-process source (source.Memory) and a database/sql adapter
// (package sqlsource) with DuckDB and SQLite constructors. Package
// pricing resolves tiered prices (list, matrix, contract) over the
// same sources.
package loadgate
