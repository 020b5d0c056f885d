/*
Package orm provides typed access to prefixed sections of the store called
buckets.

Each bucket contains only one type of model, stored under a primary key, and
may keep any number of secondary indexes. An index maps a key computed from
the model (for example the owner address) to the primary keys of all models
that produced it. Unique indexes reject a second model with the same index
key.

Buckets are also query handlers, so that clients can read models by the
primary key, by a primary key prefix or through any secondary index.
*/
package orm
