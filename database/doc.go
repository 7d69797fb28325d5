package database

/*
[Snapshot](snapshot.go) is a read-only keyspace restored from an RDB file by [Load](rdb.go) or [LoadFile](rdb.go).

The decoder in lib/rdb/core reconstructs stored state faithfully, it never drops a key because its expire time has passed.
Snapshot is the layer which applies expiration: Get, Keys, TTL and Len hide keys whose expire time is not after the
current time, as a redis server would right after loading the same file. Data and ForEach take an includeExpired flag
for tools which need the raw content.

Keys accepts the glob syntax of the redis KEYS command, see lib/wildcard.

When several databases hold the same key the entry read last wins, db index is kept on each entry.
*/
