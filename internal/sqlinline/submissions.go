package sqlinline

// QRecordDisposition appends a submission row and spends one unit of the
// owner's quota in a single statement. The update carries every precondition
// (user exists, quota remains, session not complete), so concurrent
// dispositions against the same user cannot both pass a remaining_prompts of
// one. A disposition with status 'Submitted' also bumps the submitted count;
// a 'Deleted' disposition only spends quota. When the update matches no row
// the whole statement yields no rows and nothing is written.
const QRecordDisposition = `--sql e566b822-723d-4cb6-a47c-d4f11fcf0526
with disposition as (
    select $1::uuid as user_id, $2::text as prompt, $3::text as image_url, $4::text as status
),
consumed as (
    update users u
    set remaining_prompts = u.remaining_prompts - 1,
        submitted_prompts_count = u.submitted_prompts_count
            + case when (select status from disposition) = 'Submitted' then 1 else 0 end,
        updated_at = now()
    where u.id = (select user_id from disposition)
      and u.remaining_prompts > 0
      and u.submitted_prompts_count = 0
    returning u.id, u.remaining_prompts
),
appended as (
    insert into submissions (id, user_id, prompt, image_url, status)
    select gen_random_uuid(), c.id, d.prompt, d.image_url, d.status
    from consumed c, disposition d
    returning id
)
select a.id, c.remaining_prompts
from appended a, consumed c;
`

const QSelectUserSubmissions = `--sql 09f6da83-2194-4ce3-a030-4ca0bc0bf0f6
select id, user_id, prompt, image_url, status, created_at
from submissions
where user_id = $1::uuid
order by created_at desc;
`

const QCountSubmitted = `--sql 54917bdd-3739-458c-8d86-1e380e1c63b5
select count(*)
from submissions
where status = 'Submitted';
`

const QSelectSubmittedPage = `--sql 0f0cb323-ce10-4308-9744-1ea6e2a7d15c
select s.id, s.user_id, s.prompt, s.image_url, s.status, s.created_at,
       coalesce(u.username, 'Unknown') as username
from submissions s
left join users u on u.id = s.user_id
where s.status = 'Submitted'
order by s.created_at desc
offset $1::int
limit $2::int;
`

// Degraded read used when the sorted page query fails: no ordering, hard cap.
const QSelectSubmittedCapped = `--sql de711357-7693-4329-a18b-34f2153c4f46
select s.id, s.user_id, s.prompt, s.image_url, s.status, s.created_at,
       coalesce(u.username, 'Unknown') as username
from submissions s
left join users u on u.id = s.user_id
where s.status = 'Submitted'
limit $1::int;
`

const QDeleteAllSubmissions = `--sql ddb9a9c3-8958-4cf6-bafa-b897887f2468
delete from submissions;
`
