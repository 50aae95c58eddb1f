/*
Package config loads default gol options from a file.

	            +-------------+
	            |   Config    |
	            | (defaults)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Keeps frequently used fragments and imports out of the command line
- Rejects unknown keys so typos do not go unnoticed

🔄 Flow:
1. Picks a parser from the file extension (.golrc tries YAML, then HCL)
2. Decodes the file
3. Validates the values

Command line flags always win over the file; imports from both are combined.

🔍 Example (gol.hcl):

	pre     = "buffer[\"n\"] = 0"
	line    = "if re(\"${env.PATTERN}\").MatchString(line) { buffer[\"n\"] = buffer[\"n\"].(int) + 1 }"
	post    = "p(buffer[\"n\"])"
	imports = ["os"]
*/
package config
