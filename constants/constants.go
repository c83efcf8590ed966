package constants

// Files written into the index dir by the index command.
const (
	IndexDBFile    = "chords.db"
	FileNumMapFile = "fileNumToScorePath.dat"
)

const MetadataTable = "tabdex-metadata"

// DynamoDB's BatchGetItem limit is 100 keys.
const MaxBatchGet = 100

const DefaultPageSize = 20
