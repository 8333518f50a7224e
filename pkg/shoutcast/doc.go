// Package shoutcast reads ICY/Shoutcast audio streams.
//
// Playlist URLs (.pls, .m3u) are resolved to the actual stream URL before
// connecting. When the server interleaves ICY metadata blocks, Read strips
// them so only audio bytes are returned, and title changes are reported
// through a callback. Servers without icy-metaint are read verbatim.
package shoutcast
