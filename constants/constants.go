package constants

import "os"

func GetOutDir() string {
	path := os.Getenv("OUT_DIR")
	if path != "" {
		return path
	}
	return ""
}

func GetUploadDir() string {
	path := os.Getenv("UPLOAD_DIR")
	if path != "" {
		return path
	}
	return "./uploads"
}

func GetPort() string {
	port := os.Getenv("PORT")
	if port != "" {
		return port
	}
	return "3000"
}

// GetDynamoEndpoint returns "" when no catalog is configured.
func GetDynamoEndpoint() string {
	return os.Getenv("DYNAMO_ENDPOINT")
}

func GetDynamoTable() string {
	table := os.Getenv("DYNAMO_TABLE")
	if table != "" {
		return table
	}
	return "xmlabc-scores"
}

const Version = "50"

// default maximum number of characters in one line of notes
const LineWidth = 100

// largest denominator a duration string may carry
const MaxDenominator = 64

// tried in this order, the first one wins on equal length
var UnitLengths = []int{4, 8, 16}

const DefaultUnitLength = 8

// ticks per quarter note in exported midi files
const MidiResolution = 960
