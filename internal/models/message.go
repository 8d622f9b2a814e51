package models

import "time"

type MessageType string

const (
	MessageTypeText         MessageType = "text"
	MessageTypeSystem       MessageType = "system"
	MessageTypeNotification MessageType = "notification"
)

// Message is immutable once created. UserName is copied from the sender at send time.
type Message struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	UserName    string      `json:"user_name"`
	Content     string      `json:"content"`
	MessageType MessageType `json:"message_type"`
	RoomID      string      `json:"room_id"`
	Timestamp   time.Time   `json:"timestamp"`
}
