/*
Package todo holds the todo record store: items keyed by an auto-incrementing
uint32 identifier, mutated through Create, UpdateStatus, UpdateDescription and
Delete. Every successful mutation emits exactly one notification; calls that
find no item return false and emit nothing.

# Notifications

Created notification. Produced by Create.

	Created
	  - topic: todos/<id>
	  - name: id
	    type: uint32
	  - name: description
	    type: string

StatusUpdated notification. Produced by UpdateStatus. The done flag is part of
the topic so completions can be filtered with todos/+/done/true.

	StatusUpdated
	  - topic: todos/<id>/done/<done>
	  - name: id
	    type: uint32
	  - name: done
	    type: bool

DescriptionUpdated notification. Produced by UpdateDescription.

	DescriptionUpdated
	  - topic: todos/<id>
	  - name: id
	    type: uint32
	  - name: description
	    type: string

Deleted notification. Produced by Delete.

	Deleted
	  - topic: todos/<id>
	  - name: id
	    type: uint32
*/
package todo
