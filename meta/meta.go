// meta/meta.go
package meta

// HARVEST_CAPACITY is the amount a worker carries per harvest.
const HARVEST_CAPACITY = 100

// PEASANT_COST is the gold spent to produce one worker.
const PEASANT_COST = 400

// BUILD_TIME is the planning cost of producing one worker.
const BUILD_TIME = 1

// HARVEST_TIME is the planning cost of one harvest or deposit, excluding movement.
const HARVEST_TIME = 1
