// Package language maps container language metadata to ISO 639 codes.
//
// Matroska tracks carry either a legacy ISO 639-2 code (chi, eng) or an
// IETF BCP 47 tag (zh-Hans, en-US). Both forms resolve to the same entries
// here so track selection never has to care which one a muxer wrote.
package language
