package cameravision

// LoadNotice exposes the notice emitted by init.
var LoadNotice = loadNotice
