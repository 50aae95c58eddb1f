/*
Package operation drives a gol run: it feeds input lines to the compiled
fragments in order and keeps the shared state current.

	+-----------+     +-----------+     +-----------+
	|    pre    | --> |   line    | --> |   post    |
	|  (once)   |     | (each     |     |  (once)   |
	+-----------+     |  line)    |     +-----------+
	                  +-----+-----+
	                        ^
	          +-------------+-------------+
	          |             |             |
	     +----+----+  +-----+-----+  +----+----+
	     |  stdin  |  | paths on  |  |  file   |
	     |  lines  |  |   stdin   |  |  args   |
	     +---------+  +-----------+  +---------+

🔄 Flow:
1. Runs the pre fragment
2. Streams lines from the selected source, switching the active file
3. Skips paths that do not exist or are not regular files, with a warning
4. Runs the post fragment

📝 State lifecycle:
  - The scratch buffer lives for the whole run
  - The line counter restarts with each file unless the state keeps it
  - The first failing fragment stops the run; post does not run after a failure
*/
package operation
