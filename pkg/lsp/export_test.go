package lsp

// OffsetAt exposes offsetAt for testing.
var OffsetAt = offsetAt

// PositionAt exposes positionAt for testing.
var PositionAt = positionAt
