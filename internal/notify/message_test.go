package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hotpicks/internal/lines"
)

func TestCompose(t *testing.T) {
	batch := []lines.Line{
		{Main: []int{17, 19, 20, 23, 27}, Bonus: []int{2, 3}},
		{Main: []int{35, 38, 40, 44, 50}, Bonus: []int{9, 10}},
	}

	msg := Compose("ada.lovelace@example.com", batch)

	assert.Equal(t, "Your EuroMillions Predictions", msg.Subject)
	assert.Equal(t, "Hi Ada,\n\n"+
		"Here are your EuroMillions predictions:\n\n"+
		"Line 1: Main Balls: 17, 19, 20, 23, 27 | Lucky Stars: 2, 3\n"+
		"Line 2: Main Balls: 35, 38, 40, 44, 50 | Lucky Stars: 9, 10\n"+
		"\nGood luck!\n", msg.Body)
}

func TestComposeFallsBackToGenericGreeting(t *testing.T) {
	msg := Compose("42@example.com", nil)
	assert.Contains(t, msg.Body, "Hi there,")
	assert.NotContains(t, msg.Body, "Line 1")
}
