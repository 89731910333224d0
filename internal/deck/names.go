package deck

import (
	"fmt"
	"strings"
)

var majorArcanaNames = map[string]string{
	"00": "The Fool",
	"01": "The Magician",
	"02": "The High Priestess",
	"03": "The Empress",
	"04": "The Emperor",
	"05": "The Hierophant",
	"06": "The Lovers",
	"07": "The Chariot",
	"08": "Strength",
	"09": "The Hermit",
	"10": "Wheel of Fortune",
	"11": "Justice",
	"12": "The Hanged Man",
	"13": "Death",
	"14": "Temperance",
	"15": "The Devil",
	"16": "The Tower",
	"17": "The Star",
	"18": "The Moon",
	"19": "The Sun",
	"20": "Judgement",
	"21": "The World",
}

// getDefaultMajorArcanaName returns the English name for a major arcana card
func getDefaultMajorArcanaName(number string) string {
	if name, ok := majorArcanaNames[number]; ok {
		return name
	}
	return fmt.Sprintf("Major Arcana %s", number)
}

// getDefaultMinorArcanaName returns the English name for a minor arcana card
func getDefaultMinorArcanaName(rank, suit string) string {
	return fmt.Sprintf("%s of %s", capitalize(rank), capitalize(suit))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
