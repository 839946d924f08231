package api

// Version is the client version reported in the User-Agent header.
const Version = "0.1.0"
