package service

// Broadcaster pushes events to connected host dashboards (avoids import cycle with ws)
type Broadcaster interface {
	BroadcastToHosts(msgType string, payload interface{})
}

// MsgStatsUpdate carries fresh Statistics after every append
const MsgStatsUpdate = "stats_update"
