package utils

import "fmt"

// Returns the average of all given numbers n
func Average(n ...int) int {
	if len(n) == 0 {
		return 0
	}

	// Sum all numbers
	var sum int
	for _, num := range n {
		sum += num
	}

	// Divide sum by total numbers
	return sum / len(n)
}

// Clamps v to [0, 255] and converts it to a channel value
func ClampByte(v float64) byte {
	if v < 0 {
		return 0
	} else if v > 255 {
		return 255
	}
	return byte(v)
}

// Returns text drawn on a 24-bit colored background (ANSI escape)
func ColoredBlock(block string, red int, green int, blue int) string {
	return fmt.Sprintf("\033[48;2;%d;%d;%dm%s\033[0m", red, green, blue, block)
}
