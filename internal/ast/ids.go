package ast

// ExprID addresses one expression in one generation's arena.
// 0 is the null ID. IDs are only meaningful against the arena that minted
// them; a reparse mints a fresh arena and invalidates every outstanding ID.
type ExprID uint32

// NoExpr is the null expression ID.
const NoExpr ExprID = 0
