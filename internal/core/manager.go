package core

import (
	"context"
	"sync"
	"time"

	"lastday/internal/log"
)

var (
	Rooms = make(map[string]*Room)
	mu    sync.RWMutex

	roomDefaults RoomOptions
	maxRooms     int
)

const (
	cleanupInterval = 30 * time.Second
	roomIdleTimeout = 60 // seconds
)

// SetRoomDefaults sets the options every later CreateRoom uses. limit caps
// the number of open rooms; zero means no cap.
func SetRoomDefaults(opts RoomOptions, limit int) {
	mu.Lock()
	defer mu.Unlock()
	roomDefaults = opts
	maxRooms = limit
}

// StartCleanupTask stops idle empty rooms until ctx is done.
func StartCleanupTask(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			CleanupEmptyRooms()
		}
	}
}

func CleanupEmptyRooms() {
	mu.Lock()
	defer mu.Unlock()

	now := time.Now().Unix()
	for id, room := range Rooms {
		room.Mutex.RLock()
		playerCount := len(room.Sessions)
		lastActive := room.LastActiveTime
		room.Mutex.RUnlock()

		if playerCount == 0 && (now-lastActive) > roomIdleTimeout {
			room.StopChan <- true
			delete(Rooms, id)
			log.Info("room closed", "room", id)
		}
	}
}

func GetRoom(roomID string) *Room {
	mu.RLock()
	defer mu.RUnlock()
	return Rooms[roomID]
}

// CreateRoom returns the running room with that id, starting one if needed.
// It returns nil when the server is at its room limit.
func CreateRoom(roomID string) *Room {
	mu.Lock()
	defer mu.Unlock()
	if r, ok := Rooms[roomID]; ok {
		return r
	}
	if maxRooms > 0 && len(Rooms) >= maxRooms {
		log.Warn("room limit reached", "room", roomID, "limit", maxRooms)
		return nil
	}
	room := NewRoom(roomID, roomDefaults)
	Rooms[roomID] = room
	go room.Run()
	log.Info("room created", "room", roomID)
	return room
}

func RemoveRoom(roomID string) {
	mu.Lock()
	defer mu.Unlock()
	if r, ok := Rooms[roomID]; ok {
		r.StopChan <- true
		delete(Rooms, roomID)
	}
}

// RoomCount reports the open rooms and the clients connected to them.
func RoomCount() (rooms, players int) {
	mu.RLock()
	defer mu.RUnlock()
	for _, r := range Rooms {
		players += r.PlayerCount()
	}
	return len(Rooms), players
}
