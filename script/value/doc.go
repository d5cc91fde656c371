// Package value defines the variable entry (VE): the descriptor a
// namespace, a stack frame, or an object's member table uses to describe
// one named, typed storage slot. It holds no storage itself — arrays live
// in the owning frame/object, scalars live in a stack.Cell — only the
// metadata needed to interpret that storage: type, array length, where it
// lives, and a handful of flags.
//
// Grounded on hive/format's NK/VK cell split: a VK entry (hive's value
// descriptor) separates "what this is" from "where its bytes are," which
// is exactly the separation a VE needs between a scripted local, a native
// parameter, and a POD member.
package value
