package generator

// Config drives the sample dataset generator.
type Config struct {
	Individuals     int
	FriendsPerNode  int
	MaxInteractions int
	Households      int
	Countries       int
	FirstYear       int
	LastYear        int
	MissingChance   float64
	AdvertisingRows int
	IrisPerSpecies  int
	Seed            uint64
}

// DefaultConfig returns sizes close to the demo datasets.
func DefaultConfig() Config {
	return Config{
		Individuals:     25,
		FriendsPerNode:  3,
		MaxInteractions: 30,
		Households:      1000,
		Countries:       40,
		FirstYear:       2000,
		LastYear:        2019,
		MissingChance:   0.05,
		AdvertisingRows: 200,
		IrisPerSpecies:  50,
		Seed:            42,
	}
}
