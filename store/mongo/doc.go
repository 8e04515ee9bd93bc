// Package mongo implements store.Store using the official MongoDB driver.
// Each record is one document whose _id is the job ID; writes replace the
// whole document with an upserting ReplaceOne.
//
// The caller owns the *mongo.Database lifecycle when passing one in:
//
//	client, _ := mongod.Connect(options.Client().ApplyURI(uri))
//	store := mongo.New(client.Database("batchwatch"))
//	store.Migrate(ctx)
//
// Open connects and returns a store that disconnects on Close.
package mongo
