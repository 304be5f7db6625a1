package room

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

const (
	roomIDLength   = 6
	roomIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type randomRoomID struct{}

func NewRoomIdGenerator() UniqueIdGenerator {
	return randomRoomID{}
}

func (randomRoomID) Generate() string {
	b := make([]byte, roomIDLength)
	for i := range b {
		b[i] = roomIDAlphabet[rand.IntN(len(roomIDAlphabet))]
	}
	return string(b)
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}
