// Package script binds the transmit driver to Starlark.
//
// Scripts see a predeclared rmttx module:
//
//	def on_event(ch, event, threshold):
//	    if event == EVENT_THRESHOLD:
//	        ch.write_raw_fill([10, 1, 10, 0] * threshold)
//
//	tx = rmttx.create(channel=0, gpio=4, mem_blocks=2, cb=on_event)
//	tx.write_raw_start([10, 1, 10, 0] * 128)
//	rmttx.wait_idle()
//
// Event callbacks run on a Starlark thread of their own, from whichever
// goroutine delivers the channel's events.
package script
