// Package repository persists chats and voices with GORM and caches chat
// snapshots in Redis.
package repository
