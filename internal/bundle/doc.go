// Package bundle implements named link bundles: the Store that persists the
// bundle index and each bundle's ordered link list on top of a kvstore, and
// the Service that exposes the user operations (create, list, show, delete,
// rename, add, remove, exec) with typed per-item outcomes.
package bundle
