package scheduler

// Package scheduler manages the background refresh jobs:
// - Quote basket warm during market hours
// - IPO, news and economic-calendar cache refresh
// - OTP and chat-archive cleanup
//
// The jobs are implemented in jobs.go
