package gateway

import (
	"helpbot/pkg/api"
)

// Aliases into the api package so channel implementations and the
// manager can share one set of transport types.
type Channel = api.Channel
type SignalingChannel = api.SignalingChannel
type MessageResponder = api.MessageResponder
type ChannelContext = api.ChannelContext
type UnifiedMessage = api.UnifiedMessage
type SessionContext = api.SessionContext
type MessageHandler = api.MessageHandler
